// Package highlight turns rules into decoration candidates.
//
// An Extractor runs every pattern of one rule over a document and decides,
// per match, which substring is decorated and with which style. Matching is
// done on the rune slice of the document so offsets are code points.
//
// Rules style either the first defined capture group of each match, or,
// with a colors or matchCss list, each capture group individually:
//
//	"#FFC83D": ["(v-slot:[^>\\s]+)"]              // decorates the group
//	red: {match: ["(a)(b)"], colors: [red, blue]} // one style per group
package highlight
