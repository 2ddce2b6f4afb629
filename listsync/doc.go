// Package listsync keeps a server-sourced list of sets in step with the
// user's pending actions: which items have their action panel open (the
// selection, with a pending quantity), which just completed a mutation (the
// feedback, cleared after a short delay), and which have a request in flight.
//
// Every list screen of the site (collection, wishlist, another user's sets,
// theme browsing, search, home) is a List configured with a selection mode
// and the server capabilities that apply to it.
package listsync
