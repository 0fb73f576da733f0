// Package cli provides the musicarchive command surface: a cobra command tree
// and the interactive shell it starts by default.
//
// The shell keeps one Principal per session. Typical flow: register or log
// in, then list, show, add, update or delete artefacts. Admins can also read
// the modification history, verify archive integrity and load sample songs.
//
// Errors from the archive are reported as a message and the shell prompts
// again; none of them ends the session.
package cli
