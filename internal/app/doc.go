// Package app holds the download use case: fetching each pending data
// center request in turn and checkpointing the document after every attempt.
// It also resolves event ids and station listings for building requests.
package app
