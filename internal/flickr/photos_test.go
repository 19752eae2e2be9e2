package flickr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bcnelson/flickrkit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoSetsGetList(t *testing.T) {
	stub := newStub(map[string]string{
		"flickr.photosets.getList": `<rsp stat="ok"><photosets cancreate="1" page="1" pages="1" perpage="2" total="2">
			<photoset id="5" primary="2483" secret="abcdef" server="8" photos="4" farm="1"><title>Test</title><description>foo</description></photoset>
			<photoset id="4" primary="1234" secret="832659" server="3" photos="12" farm="1"><title>My Set</title><description>bar</description></photoset>
		</photosets></rsp>`,
	})
	c := signedClient(stub)

	sets, err := c.PhotoSetsGetList(context.Background(), "12037949754@N01")
	require.NoError(t, err)
	require.Len(t, sets.PhotoSets, 2)
	assert.Equal(t, "5", sets.PhotoSets[0].ID)
	assert.Equal(t, 12, sets.PhotoSets[1].NumberOfPhotos)

	user, _ := stub.last(t).params.Get("user_id")
	assert.Equal(t, "12037949754@N01", user)
}

func TestPhotoSetsGetList_OwnSetsNeedToken(t *testing.T) {
	_, err := signedClient(newStub(nil)).PhotoSetsGetList(context.Background(), "")
	assert.True(t, errors.Is(err, domain.ErrNotAuthenticated))
}

func TestPhotoSetsGetInfo(t *testing.T) {
	stub := newStub(map[string]string{
		"flickr.photosets.getInfo": `<rsp stat="ok"><photoset id="72157" owner="u1" total="5"><title>My Set</title></photoset></rsp>`,
	})

	set, err := New(domain.NewCredentials("K", ""), stub).PhotoSetsGetInfo(context.Background(), "72157")
	require.NoError(t, err)
	assert.Equal(t, 5, set.NumberOfPhotos)
	assert.Equal(t, "My Set", set.Title)
	assert.False(t, stub.last(t).signed)

	_, err = signedClient(stub).PhotoSetsGetInfo(context.Background(), "")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestPhotosGetCounts(t *testing.T) {
	stub := newStub(map[string]string{
		"flickr.photos.getCounts": `<rsp stat="ok"><photocounts>
			<photocount count="4" fromdate="1093566950" todate="1093653350"/>
			<photocount count="0" fromdate="1093653350" todate="1093739750"/>
		</photocounts></rsp>`,
	})
	c := signedClient(stub, WithToken("TOK"))

	from := time.Unix(1093566950, 0)
	counts, err := c.PhotosGetCounts(context.Background(),
		[]time.Time{from, from.Add(24 * time.Hour), from.Add(48 * time.Hour)},
		[]time.Time{time.Date(2004, 8, 28, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	require.Len(t, counts.Counts, 2)
	assert.Equal(t, 4, counts.Counts[0].Count)

	params := stub.last(t).params
	dates, _ := params.Get("dates")
	taken, _ := params.Get("taken_dates")
	assert.Equal(t, "1093566950,1093653350,1093739750", dates)
	assert.Equal(t, "2004-08-28 00:00:00", taken)
}

func TestPhotosGetCounts_Preconditions(t *testing.T) {
	_, err := signedClient(newStub(nil), WithToken("TOK")).PhotosGetCounts(context.Background(), nil, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = signedClient(newStub(nil)).PhotosGetCounts(context.Background(), []time.Time{time.Now()}, nil)
	assert.True(t, errors.Is(err, domain.ErrNotAuthenticated))
}

func TestPhotosSearch_ParamOrder(t *testing.T) {
	stub := newStub(map[string]string{
		"flickr.photos.search": `<rsp stat="ok"><photos page="1" pages="1" perpage="100" total="1">
			<photo id="2636" owner="47058503995@N01" secret="a123456" server="2" title="test_04" ispublic="1" isfriend="0" isfamily="0"/>
		</photos></rsp>`,
	})
	c := New(domain.NewCredentials("K", ""), stub)

	photos, err := c.PhotosSearch(context.Background(), SearchOptions{
		UserID:  "u1",
		Text:    "cat",
		Tags:    []string{"a", "b"},
		PerPage: 100,
		Page:    1,
	})
	require.NoError(t, err)
	require.Len(t, photos.Photos, 1)
	assert.Equal(t, "test_04", photos.Photos[0].Title)

	assert.Equal(t,
		"api_key=K&method=flickr.photos.search&user_id=u1&text=cat&tags=a%2Cb&per_page=100&page=1",
		stub.last(t).params.Encode())
}

func TestTestLogin(t *testing.T) {
	stub := newStub(map[string]string{
		"flickr.test.login": `<rsp stat="ok"><user id="12037949754@N01"><username>Bees</username></user></rsp>`,
	})

	_, err := signedClient(stub).TestLogin(context.Background())
	assert.True(t, errors.Is(err, domain.ErrNotAuthenticated))

	user, err := signedClient(stub, WithToken("TOK")).TestLogin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bees", user.Username)
}
