package flickr

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bcnelson/flickrkit/internal/domain"
	"github.com/bcnelson/flickrkit/internal/signature"
	"github.com/bcnelson/flickrkit/internal/xmlparse"
)

// PhotoSetsGetList returns the photosets of userID, or of the
// authenticated user when userID is empty.
func (c *Client) PhotoSetsGetList(ctx context.Context, userID string) (*domain.PhotoSetCollection, error) {
	args := signature.Params{}
	if userID != "" {
		args = args.Add("user_id", userID)
	} else if c.Token() == "" {
		return nil, fmt.Errorf("flickr.photosets.getList: %w", domain.ErrNotAuthenticated)
	}
	return invoke[domain.PhotoSetCollection](ctx, c, "flickr.photosets.getList", args, c.creds.CanSign())
}

// PhotoSetsGetInfo returns a single photoset.
func (c *Client) PhotoSetsGetInfo(ctx context.Context, photoSetID string) (*domain.PhotoSet, error) {
	if photoSetID == "" {
		return nil, fmt.Errorf("%w: photoset id is required", domain.ErrInvalidInput)
	}
	return invoke[domain.PhotoSet](ctx, c, "flickr.photosets.getInfo",
		signature.Params{}.Add("photoset_id", photoSetID), c.creds.CanSign())
}

// PhotosGetCounts returns the number of photos uploaded, or taken, between
// consecutive boundaries. Buckets come back in boundary order.
func (c *Client) PhotosGetCounts(ctx context.Context, dates, takenDates []time.Time) (*domain.PhotoCountCollection, error) {
	if len(dates) == 0 && len(takenDates) == 0 {
		return nil, fmt.Errorf("%w: dates or taken dates are required", domain.ErrInvalidInput)
	}
	if c.Token() == "" {
		return nil, fmt.Errorf("flickr.photos.getCounts: %w", domain.ErrNotAuthenticated)
	}

	args := signature.Params{}
	if len(dates) > 0 {
		args = args.Add("dates", joinTimes(dates, func(t time.Time) string {
			return strconv.FormatInt(t.Unix(), 10)
		}))
	}
	if len(takenDates) > 0 {
		args = args.Add("taken_dates", joinTimes(takenDates, func(t time.Time) string {
			return t.UTC().Format(xmlparse.AlternateDateLayout)
		}))
	}
	return invoke[domain.PhotoCountCollection](ctx, c, "flickr.photos.getCounts", args, true)
}

// SearchOptions filters PhotosSearch. Zero fields are omitted.
type SearchOptions struct {
	UserID        string
	Text          string
	Tags          []string
	MinUploadDate time.Time
	MaxUploadDate time.Time
	Extras        []string
	PerPage       int
	Page          int
}

func (o SearchOptions) params() signature.Params {
	args := signature.Params{}
	if o.UserID != "" {
		args = args.Add("user_id", o.UserID)
	}
	if o.Text != "" {
		args = args.Add("text", o.Text)
	}
	if len(o.Tags) > 0 {
		args = args.Add("tags", strings.Join(o.Tags, ","))
	}
	if !o.MinUploadDate.IsZero() {
		args = args.Add("min_upload_date", strconv.FormatInt(o.MinUploadDate.Unix(), 10))
	}
	if !o.MaxUploadDate.IsZero() {
		args = args.Add("max_upload_date", strconv.FormatInt(o.MaxUploadDate.Unix(), 10))
	}
	if len(o.Extras) > 0 {
		args = args.Add("extras", strings.Join(o.Extras, ","))
	}
	if o.PerPage > 0 {
		args = args.Add("per_page", strconv.Itoa(o.PerPage))
	}
	if o.Page > 0 {
		args = args.Add("page", strconv.Itoa(o.Page))
	}
	return args
}

// PhotosSearch returns one page of photos matching opts.
func (c *Client) PhotosSearch(ctx context.Context, opts SearchOptions) (*domain.PhotoCollection, error) {
	return invoke[domain.PhotoCollection](ctx, c, "flickr.photos.search", opts.params(), c.creds.CanSign())
}

// TestLogin returns the user the session token belongs to.
func (c *Client) TestLogin(ctx context.Context) (*domain.User, error) {
	if c.Token() == "" {
		return nil, fmt.Errorf("flickr.test.login: %w", domain.ErrNotAuthenticated)
	}
	return invoke[domain.User](ctx, c, "flickr.test.login", nil, true)
}

func joinTimes(ts []time.Time, format func(time.Time) string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = format(t)
	}
	return strings.Join(parts, ",")
}
