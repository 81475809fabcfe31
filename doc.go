// Package hpq is a client for the MayStreet historical price query (HPQ)
// service.  Queries are JSON objects sent over a secure WebSocket; the
// server answers with small JSON control messages and an arbitrarily large
// response body carried in binary frames.

// The simplest use is the buffered path:

///////////////////////////////////////////////////////////////////////////////
//package main
//
//import (
//    "fmt"
//    "github.com/maystreet/hpq-go"
//)
//func main() {
//    c, _ := hpq.NewFromEnvironment()
//    v, err := c.Request(map[string]interface{}{
//        "query": "select * from trades", "date": "2022-03-01",
//    })
//    if err != nil {
//        panic(err)
//    }
//    fmt.Println(v)
//}
///////////////////////////////////////////////////////////////////////////////

// For responses too large to buffer, Stream returns an io.Reader over the
// body, and Page/Pages iterate the body as records with resume-after-position
// pagination across repeated queries.  Cancel abandons an in-flight query
// from any state and brings the connection back to idle.

// A Client is strictly sequential: one outstanding query at a time, no
// operation safe to call concurrently with another on the same Client.

// See the README.md file for more details on using the package.

package hpq
