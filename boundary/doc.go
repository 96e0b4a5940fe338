// Package boundary cuts a street network down to a polygonal region.
//
// Within copies the edges of a network.Graph that reach the region into a new
// graph. Edges with both ends inside are copied as they are; edges crossing
// the outline are clipped, and their outside ends are replaced by boundary
// nodes whose ids come from an id minter ("A" becomes "A_clip" for string
// graphs). Label tags edges in place with a bool attribute instead.
//
// The region may be grown by WithBuffer; see geometry.Region.
package boundary
