// Package config provides the configuration of hltext.
//
// Two independent documents are read:
//
//   - The settings document (YAML or JSON) holds the highlight rules and
//     the exclude globs. It is decoded through yaml.v3 nodes so that the
//     declaration order of language keys and rules survives; order decides
//     rule priority.
//
//   - The engine options tune limits, caches and debouncing. They are
//     layered, later layers winning:
//
//     ┌─────────────────────────────┐
//     │  3. HLTEXT_* environment    │  ← Highest priority
//     ├─────────────────────────────┤
//     │  2. hltext.toml             │
//     ├─────────────────────────────┤
//     │  1. Built-in defaults       │  ← Lowest priority
//     └─────────────────────────────┘
//
// # Rules
//
// The rules section maps a language key to per-theme rule mappings:
//
//	rules:
//	  react|javascriptreact:
//	    dark:
//	      "#FFC83D": [useState, useEffect]
//	      purple:
//	        match: ["(v-if)"]
//	        before: {contentText: "✨"}
//
// A rule given as a list is bare; a rule given as a mapping with a match
// list is extended and may carry colors, matchCss, ignoreReg and style
// attributes. A document without rules uses the embedded defaults.
//
// # Sub-packages
//
//   - loader: TOML, environment and settings document loading
//   - watcher: fsnotify-based change detection for settings files
package config
