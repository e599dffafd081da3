// Package key provides key event types and parsing for the input system.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: Identifies a keyboard key (special keys or runes)
//   - Modifier: Represents modifier keys (Ctrl, Alt, Shift, Meta)
//   - Event: A single key press with modifiers and timestamp
//
// # Key Specifications
//
// Bindings in configuration files are written as key specifications:
//
//   - Simple keys: "a", "0", "Delete", "Escape"
//   - With modifiers: "Alt+m", "Ctrl+Up", "Ctrl+Shift+Left"
//   - Vim-style: "<A-m>", "<C-Up>", "<Del>"
//
// Parse turns a specification into an Event; Event.Matches compares an
// incoming event against a specification.
package key
