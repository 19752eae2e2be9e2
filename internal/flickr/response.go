package flickr

import (
	"io"

	"github.com/bcnelson/flickrkit/internal/domain"
	"github.com/bcnelson/flickrkit/internal/xmlparse"
)

const (
	statOK   = "ok"
	statFail = "fail"
)

// ParseResponse reads an <rsp> envelope. On stat="ok" the first payload
// element is loaded into v; v may be nil for calls without a payload. On
// stat="fail" the <err> element is returned as a *domain.APIError.
func ParseResponse(src io.Reader, v xmlparse.Parsable, opts ...xmlparse.Option) error {
	r := xmlparse.NewReader(src, opts...)
	if err := r.MoveToContent(); err != nil {
		return err
	}
	if err := r.Expect("rsp"); err != nil {
		return err
	}

	stat := ""
	err := r.EachAttr(func(name, value string) error {
		if name != "stat" {
			return xmlparse.UnknownAttribute(name, value)
		}
		stat = value
		return nil
	})
	if err != nil {
		return err
	}

	switch stat {
	case statOK:
		return loadPayload(r, v)
	case statFail:
		return loadFailure(r)
	default:
		return xmlparse.FormatError(stat, "stat", nil)
	}
}

func loadPayload(r *xmlparse.Reader, v xmlparse.Parsable) error {
	loaded := false
	err := r.Children(func(name string) error {
		if loaded || v == nil {
			return nil
		}
		loaded = true
		return v.Load(r)
	})
	if err != nil {
		return err
	}
	if v != nil && !loaded {
		return xmlparse.FormatError("", "response payload", io.ErrUnexpectedEOF)
	}
	return nil
}

func loadFailure(r *xmlparse.Reader) error {
	var apiErr *domain.APIError
	err := r.Children(func(name string) error {
		if name != "err" || apiErr != nil {
			return nil
		}
		apiErr = &domain.APIError{}
		return r.EachAttr(func(name, value string) error {
			switch name {
			case "code":
				code, err := xmlparse.ParseInt(value)
				if err != nil {
					return err
				}
				apiErr.Code = code
			case "msg":
				apiErr.Message = value
			default:
				return xmlparse.UnknownAttribute(name, value)
			}
			return nil
		})
	})
	if err != nil {
		return err
	}
	if apiErr == nil {
		return xmlparse.UnexpectedElement("", "err")
	}
	return apiErr
}
