// Package transcription turns one bounded audio file into text.
//
// Backends register a factory in the default registry from their init
// function and are selected by name at startup:
//
//	transcription:
//	  provider: azure
//	  language: en-US
//	  providers:
//	    azure:
//	      key: "..."
//	      region: westeurope
//
// An empty Text in the response means no speech was recognized. It is not an
// error. Backend failures (credentials, transport, decoding) are returned as
// errors.
package transcription
