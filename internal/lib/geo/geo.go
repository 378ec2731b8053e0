package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/twpayne/go-polyline"
)

// ErrMalformedPolyline indicates a route geometry string that cannot be
// decoded: truncated delta groups, unterminated continuation bits, or
// coordinates outside valid lat/lon bounds.
var ErrMalformedPolyline = errors.New("malformed polyline geometry")

// earthRadiusMiles is the mean Earth radius used for great-circle distances.
const earthRadiusMiles = 3959

// MilesBetween calculates the great-circle distance between two points in
// miles using the Haversine formula.
func MilesBetween(p1, p2 Point) (float64, error) {
	if !p1.Valid() || !p2.Valid() {
		return 0, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}

	if p1.Latitude == p2.Latitude && p1.Longitude == p2.Longitude {
		return 0, nil
	}

	lat1 := p1.Latitude * math.Pi / 180
	lat2 := p2.Latitude * math.Pi / 180
	dlat := (p2.Latitude - p1.Latitude) * math.Pi / 180
	dlon := (p2.Longitude - p1.Longitude) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c, nil
}

// DecodePolyline decodes a 5-decimal precision encoded polyline into a point
// sequence. Any decode failure, leftover bytes, or out-of-range coordinate is
// reported as ErrMalformedPolyline.
func DecodePolyline(encoded string) ([]Point, error) {
	if encoded == "" {
		return nil, fmt.Errorf("%w: empty geometry", ErrMalformedPolyline)
	}

	coords, remaining, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPolyline, err)
	}
	if len(remaining) > 0 {
		return nil, fmt.Errorf("%w: %d undecoded trailing bytes", ErrMalformedPolyline, len(remaining))
	}

	points := make([]Point, len(coords))
	for i, coord := range coords {
		points[i] = Point{Latitude: coord[0], Longitude: coord[1]}
		if !points[i].Valid() {
			return nil, fmt.Errorf("%w: coordinate %d out of range", ErrMalformedPolyline, i)
		}
	}

	return points, nil
}

// EncodePolyline encodes a point sequence into the 5-decimal precision
// polyline format. Inverse of DecodePolyline up to 1e-5 precision.
func EncodePolyline(points []Point) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Latitude, p.Longitude}
	}
	return string(polyline.EncodeCoords(coords))
}
