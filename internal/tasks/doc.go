// Package tasks runs bulk operations over the video catalogue with real-time progress reporting.
//
// # Import
//
// [Importer.Import] creates videos from a batch of [models.VideoInput] values, typically decoded from a
// JSON file with [DecodeImport]. The export produced by `videos export --format json` decodes as an
// import batch, so a catalogue can be moved between databases.
//
// Inputs flow through a worker pool:
//
//  1. Normalize the input.
//  2. Optionally enrich it from a [services.MetadataService] (oEmbed), rate limited with a shared
//     [rate.Limiter]. Only empty fields are filled; typed values win.
//  3. Derive the thumbnail, validate, and persist. Writes are serialized; enrichment is not.
//
// A failing item never stops the batch. Every input gets an [ImportItemResult] carrying its position
// in the batch, and [ImportResult.Results] is ordered by that position.
//
// # Progress Reporting
//
// Updates are sent on an optional channel without blocking: a full or nil channel drops them.
// [ProgressUpdate] carries the phase, step counters, and a display message.
package tasks
