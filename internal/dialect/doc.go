// Package dialect reads and writes the plain-text request document exchanged
// with federated catalog services:
//
//	key=value                     (document parameters)
//
//	DATACENTER=name,url
//	DATASELECTSERVICE=url         (service urls)
//	NET STA LOC CHA START END     (request lines)
//
// Blocks whose data has already been fetched are written with a leading "# "
// on every line. Reading such a file back restores the done flag, which is how
// an interrupted download resumes.
package dialect
