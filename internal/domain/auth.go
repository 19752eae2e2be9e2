package domain

import (
	"strings"

	"github.com/bcnelson/flickrkit/internal/xmlparse"
)

// User is the identity an auth token belongs to.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// Load reads a <user> element. The auth methods carry everything in
// attributes; test.login puts the username in a child element.
func (u *User) Load(r *xmlparse.Reader) error {
	if err := r.Expect("user"); err != nil {
		return err
	}
	err := r.EachAttr(func(name, value string) error {
		switch name {
		case "nsid", "id":
			u.ID = value
		case "username":
			u.Username = value
		case "fullname":
			u.FullName = value
		default:
			return xmlparse.UnknownAttribute(name, value)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return r.Children(func(name string) error {
		if name != "username" {
			return nil
		}
		text, err := r.ReadText()
		u.Username = text
		return err
	})
}

// Auth is the result of a successful handshake: the session token, the
// granted permission and the user it was issued to.
type Auth struct {
	Token       string     `json:"token"`
	Permissions Permission `json:"permissions"`
	User        User       `json:"user"`
}

// Load reads an <auth> element.
func (a *Auth) Load(r *xmlparse.Reader) error {
	if err := r.Expect("auth"); err != nil {
		return err
	}
	err := r.EachAttr(func(name, value string) error {
		return xmlparse.UnknownAttribute(name, value)
	})
	if err != nil {
		return err
	}
	err = r.Children(func(name string) error {
		switch name {
		case "token":
			text, err := r.ReadText()
			if err != nil {
				return err
			}
			a.Token = strings.TrimSpace(text)
		case "perms":
			text, err := r.ReadText()
			if err != nil {
				return err
			}
			perm, err := ParsePermission(strings.TrimSpace(text))
			if err != nil {
				return xmlparse.FormatError(text, "permission", err)
			}
			a.Permissions = perm
		case "user":
			return a.User.Load(r)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if a.Token == "" {
		return xmlparse.FormatError("", "token", nil)
	}
	return nil
}

// Frob is the short-lived request token of the desktop handshake.
type Frob struct {
	Value string
}

// Load reads a <frob> element.
func (f *Frob) Load(r *xmlparse.Reader) error {
	if err := r.Expect("frob"); err != nil {
		return err
	}
	err := r.EachAttr(func(name, value string) error {
		return xmlparse.UnknownAttribute(name, value)
	})
	if err != nil {
		return err
	}
	text, err := r.ReadText()
	if err != nil {
		return err
	}
	f.Value = strings.TrimSpace(text)
	return nil
}
