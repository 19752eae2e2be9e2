package domain

import (
	"time"

	"github.com/bcnelson/flickrkit/internal/xmlparse"
)

// Photo is a photo as it appears in list and search results.
type Photo struct {
	ID                   string    `json:"id"`
	OwnerID              string    `json:"owner_id"`
	OwnerName            string    `json:"owner_name,omitempty"`
	Secret               string    `json:"secret"`
	Server               string    `json:"server"`
	Farm                 int       `json:"farm"`
	Title                string    `json:"title"`
	IsPublic             bool      `json:"is_public"`
	IsFriend             bool      `json:"is_friend"`
	IsFamily             bool      `json:"is_family"`
	IsPrimary            bool      `json:"is_primary"`
	DateUploaded         time.Time `json:"date_uploaded"`
	DateTaken            time.Time `json:"date_taken"`
	DateTakenGranularity int       `json:"date_taken_granularity"`
	DateTakenUnknown     bool      `json:"date_taken_unknown"`
	LastUpdated          time.Time `json:"last_updated"`
	Views                int       `json:"views"`
	Media                string    `json:"media,omitempty"`
}

// Load reads a <photo> element.
func (p *Photo) Load(r *xmlparse.Reader) error {
	if err := r.Expect("photo"); err != nil {
		return err
	}
	err := r.EachAttr(func(name, value string) error {
		var err error
		switch name {
		case "id":
			p.ID = value
		case "owner":
			p.OwnerID = value
		case "ownername":
			p.OwnerName = value
		case "secret":
			p.Secret = value
		case "server":
			p.Server = value
		case "farm":
			p.Farm, err = xmlparse.ParseInt(value)
		case "title":
			p.Title = value
		case "ispublic":
			p.IsPublic, err = xmlparse.ParseBool(value)
		case "isfriend":
			p.IsFriend, err = xmlparse.ParseBool(value)
		case "isfamily":
			p.IsFamily, err = xmlparse.ParseBool(value)
		case "isprimary":
			p.IsPrimary, err = xmlparse.ParseBool(value)
		case "dateupload":
			p.DateUploaded, err = xmlparse.ParseDate(value)
		case "datetaken":
			p.DateTaken, err = xmlparse.ParseDate(value)
		case "datetakengranularity":
			p.DateTakenGranularity, err = xmlparse.ParseInt(value)
		case "datetakenunknown":
			p.DateTakenUnknown, err = xmlparse.ParseBool(value)
		case "lastupdate":
			p.LastUpdated, err = xmlparse.ParseDate(value)
		case "views":
			p.Views, err = xmlparse.ParseInt(value)
		case "media":
			p.Media = value
		default:
			return xmlparse.UnknownAttribute(name, value)
		}
		return err
	})
	if err != nil {
		return err
	}
	return r.Skip()
}

// PhotoCollection is one page of photos.
type PhotoCollection struct {
	Page    int     `json:"page"`
	Pages   int     `json:"pages"`
	PerPage int     `json:"per_page"`
	Total   int     `json:"total"`
	Photos  []Photo `json:"photos"`
}

// Load reads a <photos> element.
func (c *PhotoCollection) Load(r *xmlparse.Reader) error {
	if err := r.Expect("photos"); err != nil {
		return err
	}
	err := r.EachAttr(func(name, value string) error {
		var err error
		switch name {
		case "page":
			c.Page, err = xmlparse.ParseInt(value)
		case "pages":
			c.Pages, err = xmlparse.ParseInt(value)
		case "perpage":
			c.PerPage, err = xmlparse.ParseInt(value)
		case "total":
			c.Total, err = xmlparse.ParseInt(value)
		default:
			return xmlparse.UnknownAttribute(name, value)
		}
		return err
	})
	if err != nil {
		return err
	}
	photos, err := xmlparse.ReadCollection[Photo](r, "photo")
	if err != nil {
		return err
	}
	c.Photos = photos
	return nil
}
