// Package tui implements the interactive artframe control panel.
//
// The panel is a Bubble Tea program with two screens. Every remote call runs
// as a command and reports back with a message; the state the screens draw
// lives in the workflow controller and the gallery, so views always read a
// fresh snapshot.
//
// # Screens
//
//  1. Home:
//     - Generate a prompt (p), edit it (e), render it (i), push the image (t)
//     - Shared status line with a spinner while an operation is in flight
//     - Upload notification, dismissed after six seconds or with x
//     - Gallery of the configured folder: enter pushes the selected image,
//       r reloads, f opens the backend folder dialog
//
//  2. Settings:
//     - TV IP and image folder inputs
//     - Check IP (ctrl+r), test connection (ctrl+t), browse (ctrl+o),
//       save (ctrl+s)
//     - Editing the address clears the last test result
//
// Workflow keys are ignored while a workflow operation is busy. Nothing
// is cancelled: a late completion still updates the state.
//
// All screens use RenderApplicationContainer for the header, content and
// help footer. The palette follows the saved theme; m toggles it.
//
// # Usage
//
//	err := tui.Run(&tui.Session{
//	    Ctx:        ctx,
//	    Controller: ctrl,
//	    Gallery:    gal,
//	    Resolve:    client.ResolveURL,
//	    BackendURL: client.BaseURL,
//	})
package tui
