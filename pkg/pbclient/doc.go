// Package pbclient provides the primary entry point for constructing a
// PocketBase API client that implements the pocketbase.Client interface.
//
// It layers configuration, HTTP transport, and authentication on top of the
// interfaces and types defined in the pocketbase package. Most applications
// should import pbclient to build a client, then use the returned
// pocketbase.Client to access collections and auth flows.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/pocketbase-client/pkg/pbclient"
//	  "github.com/fivetwenty-io/pocketbase-client/pkg/pocketbase"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Minimal: just a server address (no auth).
//	  cli, err := pbclient.New(&pocketbase.Config{BaseURL: "http://127.0.0.1:8090"})
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with a token you already have:
//	  cli, err = pbclient.NewWithToken("http://127.0.0.1:8090", "eyJhbGciOi...")
//
//	  // Or authenticate on construction:
//	  cli, err = pbclient.NewWithPassword(ctx, "http://127.0.0.1:8090", "user@example.com", "secret")
//	  if err != nil { log.Fatal(err) }
//
//	  records, err := cli.Collection("posts").List(ctx, pocketbase.NewListOptions().WithPerPage(10))
//	  if err != nil { log.Fatal(err) }
//	  _ = records
//	}
//
// # Helpers
//
// The package also provides convenience constructors NewWithBaseURL,
// NewWithToken, NewWithPassword, and NewWithAdminPassword that wrap New with
// the appropriate configuration.
package pbclient
