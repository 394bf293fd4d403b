package admin

import (
	"time"

	"techsat/internal/domain"
	"techsat/internal/models"
)

type Mode string

const (
	ModeViewing Mode = "viewing"
	ModeEditing Mode = "editing"
)

// Form holds the product form exactly as submitted; Price stays a string
// until Save parses it.
type Form struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       string          `json:"price"`
	ImageURL    string          `json:"image_url"`
	Category    domain.Category `json:"category"`
	Featured    bool            `json:"featured"`
}

func emptyForm() Form {
	return Form{Category: domain.CategoryIPTV}
}

func formFrom(p models.Product) Form {
	return Form{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.String(),
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		Featured:    p.Featured,
	}
}

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is the transient message shown until superseded or expired.
type Flash struct {
	Kind FlashKind `json:"kind"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Session is the whole state of one admin browsing session. Controller
// methods take it by value and return the next state.
type Session struct {
	ID              string           `json:"id"`
	Username        string           `json:"username"`
	LoggedIn        bool             `json:"logged_in"`
	Ready           bool             `json:"ready"`
	Mode            Mode             `json:"mode"`
	EditingID       string           `json:"editing_id,omitempty"`
	Form            Form             `json:"form"`
	Products        []models.Product `json:"products"`
	DownloadLink    string           `json:"download_link"`
	FeaturedMessage string           `json:"featured_message"`
	Flash           *Flash           `json:"flash,omitempty"`
	Busy            bool             `json:"busy"`
	LastSeen        time.Time        `json:"-"`
}

func NewSession(id string) Session {
	return Session{ID: id, Mode: ModeViewing, Form: emptyForm()}
}

// Creating reports whether the open form is for a new product.
func (s Session) Creating() bool { return s.Mode == ModeEditing && s.EditingID == "" }

// ActiveFlash drops the message once it is older than ttl.
func (s Session) ActiveFlash(now time.Time, ttl time.Duration) *Flash {
	if s.Flash == nil {
		return nil
	}
	if ttl > 0 && now.Sub(s.Flash.At) > ttl {
		return nil
	}
	return s.Flash
}

func (s Session) resetForm() Session {
	s.Mode = ModeViewing
	s.EditingID = ""
	s.Form = emptyForm()
	return s
}
