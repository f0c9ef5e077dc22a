// Package models defines the domain entities for the playlist conversion pipeline.
//
// The package contains two categories of types:
//
// 1. Source-side entities parsed from the playlist export:
//   - [PlaylistEntry] : One row of the export, immutable after parsing
//   - [Playlist] : The parsed export with its derived output naming
//
// 2. Pipeline entities produced while matching and downloading:
//   - [CandidateTrack] : A provider search result under evaluation
//   - [Decision] : The evaluator's verdict for one (entry, variant) pair
//   - [DownloadedFile] : A successfully downloaded and tagged audio file
//   - [NotFoundRecord] : A structured note that an entry could not be matched
//
// Every entry yields exactly one DownloadedFile or one NotFoundRecord by the
// end of a run, never both and never neither.
package models
