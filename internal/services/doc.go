// Package services resolves details about videos from the outside world.
//
// # YouTube URLs
//
// [ExtractVideoID] pulls the 11 character video ID out of the URL shapes YouTube hands out
// (watch pages, youtu.be short links, embeds, and legacy /v/ links).
// [ThumbnailURL] turns whatever the studio form received into an image URL:
// image URLs pass through, channel pages become the placeholder, and video URLs map to hqdefault.jpg.
//
// # Metadata Lookup
//
// The [MetadataService] interface abstracts "given a URL, tell me what it is".
// [OEmbedService] implements it against YouTube's public oEmbed endpoint, which needs no API key.
// Requests are paced with a token bucket so bulk imports stay polite.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrUnsupportedURL] : the URL does not contain a video ID
//   - [shared.ErrVideoNotFound] : the provider does not know the video (404, or 401 for private videos)
//   - [shared.ErrAPIRequest] : HTTP request failed or returned an unexpected status
//   - [shared.ErrRateLimited] : the context ended while waiting for the limiter
package services
