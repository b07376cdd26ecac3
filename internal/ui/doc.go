// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI walks through one folder sync:
//  1. [FileListView] : Browse the folder's files and the search query derived from each
//  2. [NameView] : Edit the playlist name (defaults to the folder name)
//  3. [SyncView] : Follow the progress log as the pipeline runs
//  4. [ResultView] : Summary with the playlist link and the files that were not matched
//
// Progress updates flow through a channel from the [tasks.SyncPipeline]; the model reads one update per command
// so the pipeline never outruns the rendered log.
package ui
