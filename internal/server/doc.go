// Package server exposes the posts and users stores over HTTP.
//
// Routes:
//
//	GET    /health                         liveness
//	GET    /                               posts list as text
//	GET    /status                         lifecycle of both stores
//	GET    /watch                          websocket stream of the posts list
//	GET    /posts                          all posts, most recent first
//	POST   /posts                          create from a draft (201)
//	POST   /posts/fetch                    reload posts from the API
//	GET    /posts/{id}                     one post
//	PUT    /posts/{id}                     update (409 when not applied)
//	DELETE /posts/{id}                     delete (204, 409 when not applied)
//	POST   /posts/{id}/reactions/{kind}    add one reaction
//	GET    /users                          all users
//	POST   /users/fetch                    reload users from the API
//	GET    /users/{id}                     one user
//	GET    /users/{id}/posts               posts written by the user
//
// GET /posts/{id}, /users and /users/{id} render text instead of JSON when
// called with ?format=text or an Accept header of text/plain.
//
// Errors are JSON objects of the form {"error": "..."}. Remote failures map
// to 502, invalid input to 400, unknown ids to 404 and changes the store
// refused to apply to 409.
package server
