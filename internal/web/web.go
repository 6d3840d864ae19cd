// Package web implements the form-driven HTML interface for users and their movies.
//
// # Architecture
//
// [Handler] holds the persistence gateway ([models.DataManager]) and the metadata lookup
// ([models.MovieLookup]) and registers its routes on a [server.Router]. Pages are rendered
// server-side from templates embedded in the binary.
//
// Routes
//
//	GET  /                                          → Home page
//	GET  /users                                     → User list
//	GET  /add_user                                  → Add-user form
//	POST /add_user                                  → Create user, redirect to /users
//	GET  /users/{userId}                            → The user's movies
//	GET  /users/{userId}/add_movie                  → Add-movie form
//	POST /users/{userId}/add_movie                  → Look up title, store it, redirect to the list
//	GET  /users/{userId}/delete_movie/{movieId}     → Delete (owner only), redirect to the list
//	GET  /users/{userId}/update_movie/{movieId}     → Update form prefilled from storage
//	POST /users/{userId}/update_movie/{movieId}     → Validate, update, redirect to the list
//	GET  /healthz                                   → JSON health check
//
// Any other request renders the 404 page.
//
// # Status Codes
//
// Mutations answer 303 See Other so a browser follows up with a GET. Invalid form input is a
// 400 rendered before any storage call, unknown users and movies are 404, and gateway failures
// are 500. A title the lookup cannot resolve is not an error: the not-found page is served with 200.
//
// Templates
//
//   - base.html: Layout with navigation
//   - index.html, users.html, add_user.html: Home and user pages
//   - user_movies.html, add_movie.html, update_movie.html: Movie list and forms
//   - movie_not_found.html: Lookup miss with a "Try again" link
//   - error.html: 400/404/500 pages
package web
