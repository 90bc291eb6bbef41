// Package entity contains the core business objects of the project.
package entity

// Route is an ordered sequence of coordinates describing a driving path from
// a driver's current location to an order's dropoff location. Routes are
// computed fresh on every aggregation cycle and never merged with a previous
// value.
type Route []Coordinate

// StraightLine returns the two-point direct path between origin and
// destination, used when a routing provider call fails.
func StraightLine(origin, destination Coordinate) Route {
	return Route{origin, destination}
}
