// Package fdsn builds query URLs for FDSN-style web services, in particular
// the federated catalog that answers with a request document listing the
// data centers holding each channel.
package fdsn
