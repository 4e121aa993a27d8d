// Package storage is the blob store for recorded audio.
//
// Backends register a Factory under a provider name from their init
// function, so the binary selects one by importing it:
//
//	import _ "github.com/kbukum/recorder/storage/azure"
//
//	storage:
//	  provider: azure
//	  container: conversations
//	  connection_string: "DefaultEndpointsProtocol=https;..."
//
// Every backend creates its container on construction if it is missing and
// overwrites existing objects on Upload.
package storage
