package mcpserver

// EditorContract describes how the tag editor publishes changes, for LLM
// consumers driving it through tools.
const EditorContract = `# Tag Editor Contract

A tag field holds a list of tags (id, name, color) and the ids currently
selected. The editor works on a draft of that state.

## Session

1. Call ` + "`open_editor`" + ` once per field. A second open fails until the
   first session is saved or cancelled.
2. Every editing tool needs an open session and returns the rendered editor.
3. Finish with ` + "`save_editor`" + ` or ` + "`cancel_editor`" + `.

## What publishes when

| Action | Reaches the field |
|---|---|
| ` + "`toggle_tag`" + ` | immediately, and stays even if the editor is cancelled |
| ` + "`create_tag`" + ` | the new tag on save; its selection immediately |
| ` + "`rename_tag`" + `, ` + "`recolor_tag`" + `, ` + "`delete_tag`" + ` | on save only |

Cancelling keeps toggles already published but drops selected ids of tags
that only existed in the draft.

## Rules

- Names are trimmed and must not be blank (at most 64 characters).
- Colors are hex values with a leading ` + "`#`" + `. Call ` + "`list_colors`" + `
  or read ` + "`tagfield://palette`" + `; a strict catalog rejects other colors.
- ` + "`create_tag`" + ` does not deduplicate names. Check ` + "`can_create`" + `
  in the editor view after ` + "`set_query`" + ` to avoid duplicates.
- Deleting a tag removes it from the draft selection at once.
`
