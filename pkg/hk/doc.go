// Package hk provides types, interfaces, and errors for working with hkbase,
// a remote knowledge-graph storage service.
//
// # Overview
//
// The hk package defines the domain types (Config, Transaction, Notification)
// and the interfaces for the base client (Client), repository clients
// (RepositoryClient), and observers (ObserverClient). A concrete
// implementation is provided by the hkclient package, which wires
// configuration, transport, and authentication. Most consumers should import
// hkclient to construct a client and then interact with the interfaces
// exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/valescamoura/hkgo/pkg/hk"
//	  "github.com/valescamoura/hkgo/pkg/hkclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := hkclient.New(&hk.Config{URL: "https://hkbase.example.com"})
//	  if err != nil { log.Fatal(err) }
//
//	  repo, err := cli.ConnectRepository(ctx, "my-repo")
//	  if err != nil { log.Fatal(err) }
//
//	  entities, err := repo.GetEntities(ctx, map[string]any{})
//	  if err != nil { log.Fatal(err) }
//	  _ = entities
//	}
//
// # Errors
//
// Errors reported by the server are represented by APIError and always
// propagate unchanged; any other failure is wrapped in a ClientError that
// retains its cause. Helpers such as IsAPIError and IsNotFound make it easy
// to branch on common cases.
package hk
