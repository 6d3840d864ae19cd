// Package services implements the outbound movie metadata lookup.
//
// # Lookup Interface
//
// [Lookup] extends [models.MovieLookup] with a classified-error variant so the CLI can report
// why a title could not be resolved, while the web handlers only care whether it was.
//
// # OMDb Implementation
//
// [OMDbService] queries the OMDb title endpoint with a static API key:
//
//	GET {base_url}?apikey=KEY&t=TITLE
//
// The response is normalized into [models.MovieFields]:
//   - Year becomes an integer only when it is all digits ("2010"), otherwise 0 ("2010–2014")
//   - imdbRating "N/A" or a missing rating becomes 0
//   - Poster and Director "N/A" become empty strings
//
// # Caching
//
// An optional [LookupCache] stores successful lookups keyed by the normalized title.
// [RedisCache] implements it on Redis. Cache failures are logged and never fail a lookup.
//
// # Error Handling
//
// [OMDbService.Lookup] returns typed errors from the shared package:
//   - [shared.ErrInvalidInput] : blank title, no request sent
//   - [shared.ErrLookupNoMatch] : the provider answered Response "False"
//   - [shared.ErrTimeout] : the request exceeded the client timeout or context deadline
//   - [shared.ErrAPIRequest] : transport failure, non-2xx status or malformed body
//
// [OMDbService.LookupByTitle] collapses all of these into an absent result.
package services
