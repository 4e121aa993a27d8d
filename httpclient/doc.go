// Package httpclient posts audio to speech backends and reads their JSON
// replies.
//
// Bodies are streamed: an audio file handed to Raw or Form is copied to the
// connection as it is read, never buffered whole. Non-2xx replies come back
// as *StatusError alongside the response.
//
//	c, _ := httpclient.New(httpclient.Config{
//	    BaseURL: "https://westeurope.stt.speech.microsoft.com",
//	    Headers: map[string]string{"Ocp-Apim-Subscription-Key": key},
//	})
//	resp, err := c.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/speech/recognition/conversation/cognitiveservices/v1",
//	    Body:   httpclient.Raw(f, "audio/wav"),
//	})
//
// Nothing is retried here.
package httpclient
