// Package ui implements an interactive terminal reader using bubbletea's Elm architecture.
//
// The TUI has three views:
//  1. [ListView] : Browse, filter, and sort the published summaries
//  2. [ReaderView] : Read a video's summary or script, rendered from Markdown with glamour
//  3. [ConfirmView] : Confirm deleting the selected video
//
// The (view) [Model] implements the standard Init/Update/View pattern. Loading and deleting run as
// commands against a [VideoSource] and report back through the [Msg] union type.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, tab, y/n, q) with contextual help
// displayed via charmbracelet/bubbles/help.
package ui
