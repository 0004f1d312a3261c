// Package backend provides an HTTP client for the artframe backend.
//
// The backend does all the real work: prompt and image generation, listing
// the local image folder, opening a native folder dialog and talking to the
// TV. This package only moves JSON back and forth and turns every failure
// into one *Error.
//
// # Endpoints
//
//	POST /api/select-folder       -> folderPath   (120s budget)
//	POST /api/generate-prompt     -> prompt
//	POST /api/generate-image      {prompt} -> imageUrl
//	POST /api/push-to-tv          {imageUrl, tvIp}
//	GET  /api/list-local-images   -> images       (30s budget)
//	POST /api/check-tv-ip         {tvIp}
//	POST /api/test-tv-connection  {tvIp}
//	POST /api/save-settings       {tvIp, imageFolder}
//
// Every response carries {success, error?}. Image files are served under
// ImagesPath relative to the API origin.
//
// # Usage Example
//
//	client := backend.NewClient("http://localhost:5000")
//
//	prompt, err := client.GeneratePrompt(ctx)
//	if err != nil {
//	    fmt.Println("Error:", backend.Message(err))
//	    fmt.Println(backend.GetTroubleshootingHint(err))
//	    return
//	}
//
// # Errors
//
// Message(err) prefers the backend's own error string, then the transport
// error text, then a per-operation fallback such as "Failed to generate
// prompt". A success response missing its payload field is a Parse error
// with the message "malformed response". IsTimeout distinguishes a
// client-side timeout; select-folder timeouts read
// "Folder selection timed out. Please try again.".
//
// Nothing is retried. The client never touches local state.
package backend
