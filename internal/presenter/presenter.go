// Package presenter turns catalog rows into what the storefront shows and
// builds the WhatsApp links that carry purchase intent.
package presenter

import (
	"net/url"
	"strings"

	"techsat/config"
	"techsat/internal/domain"
	"techsat/internal/models"
)

const whatsAppSendURL = "https://api.whatsapp.com/send/"

// Display is a product ready for a card or an API response.
type Display struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"image_url"`
	Category      string   `json:"category"`
	CategoryLabel string   `json:"category_label"`
	Price         string   `json:"price"`
	Featured      bool     `json:"featured"`
	Highlights    []string `json:"highlights,omitempty"`
	PurchaseURL   string   `json:"purchase_url"`
}

type Presenter struct {
	cfg config.StorefrontConfig
}

func New(cfg config.StorefrontConfig) *Presenter {
	if cfg.PlaceholderImage == "" {
		cfg.PlaceholderImage = domain.DefaultPlaceholderImage
	}
	if cfg.Currency == "" {
		cfg.Currency = domain.DefaultCurrency
	}
	return &Presenter{cfg: cfg}
}

func (p *Presenter) ToDisplay(prod models.Product) Display {
	d := Display{
		ID:            prod.ID,
		Name:          prod.Name,
		Description:   prod.Description,
		ImageURL:      p.imageURL(prod.ImageURL),
		Category:      string(prod.Category),
		CategoryLabel: prod.Category.Label(),
		Price:         p.FormatPrice(prod),
		Featured:      prod.Featured,
		PurchaseURL:   p.BuildPurchaseLink(prod),
	}
	if prod.Category == domain.CategoryIPTV {
		d.Highlights = domain.IPTVHighlights
	}
	return d
}

func (p *Presenter) ToDisplayList(list []models.Product) []Display {
	out := make([]Display, 0, len(list))
	for _, prod := range list {
		out = append(out, p.ToDisplay(prod))
	}
	return out
}

// FormatPrice renders the price without trailing zeros followed by the currency label.
func (p *Presenter) FormatPrice(prod models.Product) string {
	return prod.Price.String() + " " + p.cfg.Currency
}

// imageURL keeps absolute http(s) URLs and falls back to the placeholder otherwise.
func (p *Presenter) imageURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return p.cfg.PlaceholderImage
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return p.cfg.PlaceholderImage
	}
	return raw
}

// BuildPurchaseLink returns the WhatsApp deep link asking about prod.
func (p *Presenter) BuildPurchaseLink(prod models.Product) string {
	return p.InquiryLink(strings.ReplaceAll(p.cfg.PurchaseTemplate, "{name}", prod.Name))
}

// InquiryLink returns a WhatsApp deep link to the store number carrying message.
func (p *Presenter) InquiryLink(message string) string {
	var b strings.Builder
	b.WriteString(whatsAppSendURL)
	b.WriteString("?phone=")
	b.WriteString(url.QueryEscape(p.cfg.WhatsAppPhone))
	b.WriteString("&text=")
	b.WriteString(url.QueryEscape(message))
	b.WriteString("&type=phone_number&app_absent=0")
	return b.String()
}

func (p *Presenter) IPTVInquiryLink() string { return p.InquiryLink(p.cfg.IPTVInquiry) }

func (p *Presenter) GeneralInquiryLink() string { return p.InquiryLink(p.cfg.GeneralInquiry) }

func (p *Presenter) BoxInquiryLink() string { return p.InquiryLink(p.cfg.BoxInquiry) }

// CallLink is the tel: URI for the store phone.
func (p *Presenter) CallLink() string { return "tel:+" + p.cfg.WhatsAppPhone }

// Tagline returns the featured message, or the configured default when it is empty.
func (p *Presenter) Tagline(featuredMessage string) string {
	if strings.TrimSpace(featuredMessage) == "" {
		return p.cfg.Tagline
	}
	return featuredMessage
}

func (p *Presenter) Config() config.StorefrontConfig { return p.cfg }
