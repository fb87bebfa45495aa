package entity

import (
	"net/url"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"
)

var idnaProfile = idna.Lookup

// PhoneNumber is a validated phone number in E.164 form.
type PhoneNumber struct {
	value string
}

// NewPhoneNumber parses raw with the given default region (ISO 3166 alpha-2)
// for numbers written without a country prefix.
func NewPhoneNumber(raw, region string) (PhoneNumber, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PhoneNumber{}, invalid("phone", "must not be empty")
	}
	number, err := phonenumbers.Parse(raw, strings.ToUpper(region))
	if err != nil {
		return PhoneNumber{}, invalid("phone", "cannot parse %q: %v", raw, err)
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return PhoneNumber{}, invalid("phone", "%q is not a valid number", raw)
	}
	return PhoneNumber{value: phonenumbers.Format(number, phonenumbers.E164)}, nil
}

func (p PhoneNumber) String() string               { return p.value }
func (p PhoneNumber) Equal(other PhoneNumber) bool { return p.value == other.value }

// WebsiteURL is an absolute http(s) URL whose host is in ASCII (punycode) form.
type WebsiteURL struct {
	value string
}

// NewWebsiteURL validates the scheme and converts internationalised hosts.
func NewWebsiteURL(raw string) (WebsiteURL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return WebsiteURL{}, invalid("website", "must not be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return WebsiteURL{}, invalid("website", "cannot parse %q", raw)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return WebsiteURL{}, invalid("website", "scheme must be http or https")
	}
	host := u.Hostname()
	if host == "" {
		return WebsiteURL{}, invalid("website", "host is required")
	}
	ascii, err := idnaProfile.ToASCII(strings.ToLower(host))
	if err != nil || ascii == "" {
		return WebsiteURL{}, invalid("website", "host %q is not a valid domain", host)
	}
	u.Scheme = scheme
	if port := u.Port(); port != "" {
		u.Host = ascii + ":" + port
	} else {
		u.Host = ascii
	}
	return WebsiteURL{value: u.String()}, nil
}

func (w WebsiteURL) String() string              { return w.value }
func (w WebsiteURL) Equal(other WebsiteURL) bool { return w.value == other.value }
