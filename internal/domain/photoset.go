package domain

import (
	"time"

	"github.com/bcnelson/flickrkit/internal/xmlparse"
)

// PhotoSet is an album. OwnerID is a plain identifier, not a loaded user.
type PhotoSet struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	PrimaryPhotoID string    `json:"primary_photo_id"`
	Secret         string    `json:"secret"`
	Server         string    `json:"server"`
	Farm           int       `json:"farm"`
	NumberOfPhotos int       `json:"number_of_photos"`
	NumberOfVideos int       `json:"number_of_videos"`
	CountViews     int       `json:"count_views"`
	CountComments  int       `json:"count_comments"`
	CanComment     bool      `json:"can_comment"`
	DateCreated    time.Time `json:"date_created"`
	DateUpdated    time.Time `json:"date_updated"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
}

// Load reads a <photoset> element.
func (p *PhotoSet) Load(r *xmlparse.Reader) error {
	if err := r.Expect("photoset"); err != nil {
		return err
	}

	err := r.EachAttr(func(name, value string) error {
		var err error
		switch name {
		case "id":
			p.ID = value
		case "owner", "owner_id":
			p.OwnerID = value
		case "primary":
			p.PrimaryPhotoID = value
		case "secret":
			p.Secret = value
		case "server":
			p.Server = value
		case "farm":
			p.Farm, err = xmlparse.ParseInt(value)
		case "photos", "total":
			p.NumberOfPhotos, err = xmlparse.ParseInt(value)
		case "videos":
			p.NumberOfVideos, err = xmlparse.ParseInt(value)
		case "count_views":
			p.CountViews, err = xmlparse.ParseInt(value)
		case "count_comments":
			p.CountComments, err = xmlparse.ParseInt(value)
		case "can_comment":
			p.CanComment, err = xmlparse.ParseBool(value)
		case "date_create":
			p.DateCreated, err = xmlparse.ParseDate(value)
		case "date_update":
			p.DateUpdated, err = xmlparse.ParseDate(value)
		default:
			return xmlparse.UnknownAttribute(name, value)
		}
		return err
	})
	if err != nil {
		return err
	}

	return r.Children(func(name string) error {
		var err error
		switch name {
		case "title":
			p.Title, err = r.ReadText()
		case "description":
			p.Description, err = r.ReadText()
		}
		return err
	})
}

// PhotoSetCollection is one page of photosets in API order.
type PhotoSetCollection struct {
	Page      int        `json:"page"`
	Pages     int        `json:"pages"`
	PerPage   int        `json:"per_page"`
	Total     int        `json:"total"`
	CanCreate bool       `json:"can_create"`
	PhotoSets []PhotoSet `json:"photosets"`
}

// Load reads a <photosets> element.
func (c *PhotoSetCollection) Load(r *xmlparse.Reader) error {
	if err := r.Expect("photosets"); err != nil {
		return err
	}

	err := r.EachAttr(func(name, value string) error {
		var err error
		switch name {
		case "page":
			c.Page, err = xmlparse.ParseInt(value)
		case "pages":
			c.Pages, err = xmlparse.ParseInt(value)
		case "perpage", "per_page":
			c.PerPage, err = xmlparse.ParseInt(value)
		case "total":
			c.Total, err = xmlparse.ParseInt(value)
		case "cancreate":
			c.CanCreate, err = xmlparse.ParseBool(value)
		default:
			return xmlparse.UnknownAttribute(name, value)
		}
		return err
	})
	if err != nil {
		return err
	}

	sets, err := xmlparse.ReadCollection[PhotoSet](r, "photoset")
	if err != nil {
		return err
	}
	c.PhotoSets = sets
	return nil
}
