package core

import (
	"net/url"
	"strings"
)

const (
	featuredName  = "Texas Barber & Beauty Academy"
	verifiedName  = "Deluxe Barber College"
	promotedCity  = "San Antonio"
	directionsURL = "https://www.google.com/maps/dir/?api=1&destination="
)

// StatusFor assigns the listing tier from the fixed name and address rules.
// It is applied once when a directory is loaded.
func StatusFor(name, address string) Status {
	switch {
	case strings.Contains(name, featuredName) && strings.Contains(address, promotedCity):
		return StatusFeatured
	case strings.Contains(name, verifiedName) && strings.Contains(address, promotedCity):
		return StatusVerified
	default:
		return StatusRegular
	}
}

// About returns the profile blurb. The description wins when present.
func (i *Institution) About() string {
	if i.Description != "" {
		return i.Description
	}

	cityState := "the area"
	if parts := strings.Split(i.Address, ","); len(parts) > 1 {
		if rest := strings.TrimSpace(strings.Join(parts[1:], ",")); rest != "" {
			cityState = rest
		}
	}

	programText := "offering comprehensive barbering education"
	if len(i.Programs) > 0 {
		programText = "specializing in " + strings.Join(i.Programs, ", ")
	}

	var scheduleText string
	if i.Schedule != "" {
		scheduleText = " with " + strings.ToLower(i.Schedule) + " schedule options"
	}

	var b strings.Builder
	b.WriteString(i.Name)
	b.WriteString(" is a vocational institution located in ")
	b.WriteString(cityState)
	b.WriteString(", ")
	b.WriteString(programText)
	b.WriteString(scheduleText)
	b.WriteString(". They provide hands-on training for aspiring barbers looking to obtain their state license.")
	b.WriteString(" Contact the school directly for current tuition rates and enrollment dates.")
	return b.String()
}

// CleanPhone strips everything but '+' and digits, for tel: links.
func (i *Institution) CleanPhone() string {
	if i.Phone == nil {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if r == '+' || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, *i.Phone)
}

// DirectionsURL returns a Google Maps directions link to the address.
func (i *Institution) DirectionsURL() string {
	return directionsURL + strings.ReplaceAll(url.QueryEscape(i.Address), "+", "%20")
}

// Locality returns the city segment of the address: the second-to-last
// comma-delimited segment. It returns "" when the address has fewer than two segments.
func (i *Institution) Locality() string {
	parts := strings.Split(i.Address, ",")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[len(parts)-2])
}
