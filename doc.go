/*
Package qbt provides a typed client for the qBittorrent Web API (v2).

Highlights:
  - One method per endpoint: auth, app, log, sync, transfer and torrents
  - Session cookie kept in a shared jar, so one Login serves every later call
  - Optional-field preference model that tells absent settings from zero values
  - A single error type with a closed set of codes (see ErrorCode)

The client performs no retries and no caching; each call maps to exactly one
HTTP request.

Quick start:

	import (
	    "context"
	    "log"

	    qbt "github.com/jfxdev/go-qbtapi"
	)

	func main() {
	    ctx := context.Background()

	    client, err := qbt.New(qbt.Config{BaseURL: "http://localhost:8080"})
	    if err != nil {
	        log.Fatal(err)
	    }

	    if err := client.Login(ctx, "admin", "password"); err != nil {
	        log.Fatal(err)
	    }
	    defer client.Logout(ctx)

	    torrents, _ := client.TorrentList(ctx, qbt.DefaultTorrentListParams())
	    log.Printf("torrents: %d", len(torrents))
	}
*/
package qbt
