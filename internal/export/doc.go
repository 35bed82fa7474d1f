// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes chats out of the application: a JSON backup of the
// whole collection (re-importable), and Markdown or HTML renditions of a
// single transcript. HTML output embeds syntax-highlighted code blocks.
package export
