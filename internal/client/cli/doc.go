// Package cli implements the interactive birthday wall client.
//
// The REPL lets a viewer open a wall by share code, watch it refresh in the
// background, upload a photo, react to photos and, for the owner, arrange
// the canvas and seal the wall. Rendering is text only; the canvas state is
// printed as one line per photo.
package cli
