// Package ui implements an interactive search browser using bubbletea's Elm architecture.
//
// The TUI has three views:
//  1. [SearchView] : Type a query
//  2. [LoadingView] : Wait on the in-flight catalog request; esc aborts it
//  3. [ResultsView] : Browse songs, page forward with n, or load related songs with enter
//
// Each catalog call is a [services.Request]. The model keeps the latest request's abort function and a sequence
// number, so replies from aborted or superseded requests are dropped.
package ui
