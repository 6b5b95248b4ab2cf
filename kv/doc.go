/*
Package kv provides the key/value capability for WebAssembly guest functions.

Client serializes requests with the kvstore protobufs, forwards them to the
host with waPC, and maps host status codes to errors. Zero-value Config
options fall back to DefaultNamespace and the default waPC host call; tests
inject a hostmock.Mock through Config.HostCall.

Memory is an in-memory implementation of the same KV interface. The kv/mock
package wraps it in a test double.
*/
package kv
