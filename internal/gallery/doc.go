// Package gallery is the view-model for the local image gallery.
//
// The gallery lists the files in the configured image folder as references
// under the backend's images path ("/images/a.png"), in the order the
// backend returns them, and pushes a chosen reference to the TV. With no
// folder configured the list is empty and the backend is not asked.
//
// Subscribe keeps the list current: folder changes made through the
// workflow controller and edits to the settings file both trigger a
// refresh. A gallery built WithFolderPicker also offers PickFolder.
package gallery
