package audit

import (
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// GeoIP resolves IP-address locations against a MaxMind City database.
type GeoIP struct {
	db *geoip2.Reader
}

// OpenGeoIP opens a GeoLite2-City (or GeoIP2-City) database file.
func OpenGeoIP(path string) (*GeoIP, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip database %s: %w", path, err)
	}
	return &GeoIP{db: db}, nil
}

// CountryCode returns the ISO code for an IP location. Free-form locations
// such as "Berlin, DE" are not resolved.
func (g *GeoIP) CountryCode(location string) string {
	ip := net.ParseIP(location)
	if ip == nil {
		return ""
	}
	city, err := g.db.City(ip)
	if err != nil {
		return ""
	}
	return city.Country.IsoCode
}

// Close releases the database.
func (g *GeoIP) Close() error {
	return g.db.Close()
}
