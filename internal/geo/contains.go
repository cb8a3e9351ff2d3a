// Package geo implements the point-in-polygon containment test used to
// match a query coordinate against alert coverage shapes.
package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Contains reports whether pt lies inside the area covered by rings,
// evaluating the even-odd crossing rule across every ring of the shape.
// Holes are wound opposite their enclosing outer ring, so a point inside a
// hole crosses into an even number of rings and cancels out; multiple
// disjoint outer rings each contribute independently.
//
// Boundary rule: each edge is tested on the half-open interval of its
// y-span (strictly-above on one endpoint, at-or-below on the other) with a
// strict x comparison against the crossing. A point exactly on a ring edge
// therefore lands deterministically on one side; repeated calls with the
// same inputs always agree.
func Contains(rings []orb.Ring, pt orb.Point) bool {
	inside := false
	for _, ring := range rings {
		if ringContains(ring, pt) {
			inside = !inside
		}
	}
	return inside
}

// ringContains is a ray cast against a single ring. Degenerate rings
// (fewer than 4 points or zero area) never contain anything.
func ringContains(ring orb.Ring, pt orb.Point) bool {
	if len(ring) < 4 || planar.Area(ring) == 0 {
		return false
	}

	inside := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]

		if (yi > pt[1]) != (yj > pt[1]) &&
			pt[0] < (xj-xi)*(pt[1]-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}
