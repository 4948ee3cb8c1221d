// Package domain contains the core entities of the flashdeck system:
// users, decks, learnable items, invitations, live sessions, and the
// records derived from studying them.
//
// Domain objects validate themselves and carry no persistence or transport
// concerns. Scheduling mutations go through the srs package, which returns
// updated copies rather than modifying entities in place.
package domain
