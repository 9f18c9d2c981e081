package mcpserver

// SyntaxReference describes which rc-file lines the indexer recognises, so
// LLM consumers can explain where an alias or note comes from.
const SyntaxReference = `# Alias Runner rc syntax

The indexer reads the root zsh config and every file it sources, line by line.
Only three kinds of lines matter; everything else is ignored.

## Alias definitions

` + "```" + `zsh
alias gst='git status'
alias gd="git diff"            # trailing comments become the alias note
alias ll='ls -la'  # long list
` + "```" + `

- Names may contain letters, digits and ` + "`" + `_ + . -` + "`" + `.
- The body must be fully single- or double-quoted. Unquoted bodies are skipped.
- A trailing ` + "`" + `# comment` + "`" + ` after the closing quote is the inline note.

## Note comments

` + "```" + `zsh
# note: shows short status
alias gs='git status -sb'
` + "```" + `

- ` + "`" + `# note: text` + "`" + ` (case-insensitive) attaches text to the next alias in the same
  file; it survives blank lines and other comments until an alias consumes it.
- An empty ` + "`" + `# note:` + "`" + ` cancels a pending note.
- When both exist the effective note is ` + "`" + `pending | inline` + "`" + `.

## Includes

` + "```" + `zsh
source ~/.config/zsh/aliases.zsh
. "$ZDOTDIR/conf.d"
source conf.d/*.zsh
` + "```" + `

- ` + "`" + `~` + "`" + ` and ` + "`" + `$VAR` + "`" + ` are expanded; relative paths resolve against the including file.
- Globs expand to sorted matching files. A directory includes every file with a
  configured suffix (default .zsh and .sh), recursively.
- Missing targets are skipped silently. Each file is read at most once.

## Precedence

When a name is defined more than once, the definition read last wins entirely.
A user note saved with set_note replaces the parsed note and is stored outside
the rc files.
`
