// Package chunk rewrites a request document into byte-bounded batches.
//
// Lines are accumulated per data center in their original order. A line
// whose estimated size alone exceeds the budget is split in time into
// single-line requests that each fit.
package chunk
