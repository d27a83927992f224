// Package pocketbase provides the public types and interfaces for the
// PocketBase API client.
//
// The package defines the Client interface along with the dynamic Record
// type, list/auth result shapes, the normalized APIError, pagination
// helpers, an optional response cache, and a batch executor. Concrete
// clients are created through the pbclient package:
//
//	client, err := pbclient.New(&pocketbase.Config{
//		BaseURL: "http://127.0.0.1:8090",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	records, err := client.Collection("posts").List(ctx, &pocketbase.ListOptions{
//		Filter: "status = true",
//		Sort:   "-created",
//	})
//
// Records are untyped string-keyed maps because the collection schema lives
// on the server; the client forwards filter, sort, and expand expressions as
// opaque strings and never interprets them.
//
// # Authentication
//
// Authentication state lives in a per-client store shared by every accessor
// created from that client. A successful AuthWithPassword or RefreshToken
// call overwrites the store; Clear resets it. The store is intentionally not
// synchronized: concurrent authentication mutations on one client must be
// coordinated by the caller, while concurrent read-only CRUD calls are safe.
package pocketbase
