package domain

import (
	"time"

	"github.com/bcnelson/flickrkit/internal/xmlparse"
)

// PhotoCount is the number of photos in one date-range bucket.
type PhotoCount struct {
	Count    int       `json:"count"`
	FromDate time.Time `json:"from_date"`
	ToDate   time.Time `json:"to_date"`
}

// Load reads a <photocount> element.
func (p *PhotoCount) Load(r *xmlparse.Reader) error {
	if err := r.Expect("photocount"); err != nil {
		return err
	}
	err := r.EachAttr(func(name, value string) error {
		var err error
		switch name {
		case "count":
			p.Count, err = xmlparse.ParseInt(value)
		case "fromdate":
			p.FromDate, err = xmlparse.ParseDate(value)
		case "todate":
			p.ToDate, err = xmlparse.ParseDate(value)
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

// PhotoCountCollection holds the buckets in the chronological order the
// remote service returned them.
type PhotoCountCollection struct {
	Counts []PhotoCount `json:"counts"`
}

// Load reads a <photocounts> element.
func (c *PhotoCountCollection) Load(r *xmlparse.Reader) error {
	if err := r.Expect("photocounts"); err != nil {
		return err
	}
	err := r.EachAttr(func(name, value string) error {
		return xmlparse.UnknownAttribute(name, value)
	})
	if err != nil {
		return err
	}
	counts, err := xmlparse.ReadCollection[PhotoCount](r, "photocount")
	if err != nil {
		return err
	}
	c.Counts = counts
	return nil
}
