// Package workflow sequences the panel's remote operations.
//
// Every operation has the same shape: mark its group busy and set the
// status line, call the backend, then either apply the result or surface
// the normalized error and clear the stale result. Busy is always cleared.
//
//	GeneratePrompt  -> prompt (image kept)
//	GenerateImage   -> image reference (needs a prompt)
//	PushToDevice    -> notification (needs an image and a TV address)
//	SelectFolder    -> imageFolder written, folder-change hooks fired
//	CheckConnection -> tri-state testing/success/error
//	CheckDevice     -> reachable or not
//	SaveSettings    -> settings written, backend told best-effort
//
// Local precondition failures never reach the network. Overlapping calls
// are not serialized; the last one to finish wins.
package workflow
