// Package config loads the docweaver project configuration.
//
// Configuration is read from docweaver.yaml in the working directory, falling
// back to the committed docweaver.dist.yaml. The --config flag selects
// another file. Values are layered:
//
//  1. built-in defaults (GetDefaultConfig)
//  2. the YAML file
//  3. DOCWEAVER_* environment variables, including those from a .env file
//     next to the configuration
//
// Relative paths in the file are resolved against the file's directory with
// Config.Path.
//
// # Configuration Structure
//
//	title: "My Project"
//	files:
//	  directories: ["."]
//	  ignore: ["vendor/**"]
//	parser:
//	  extensions: [".go"]
//	  cache_dir: "build/cache"
//	  default_package: "main"
//	transformer:
//	  target: "build/api"
//	  templates: ["default"]
//	translator:
//	  locale: "en"
//	plugins:
//	  - name: "todo"
//	partials:
//	  - name: "footer"
//	    content: "Generated by docweaver"
//	logging:
//	  level: "info"
//
// Load errors are *ConfigurationError; validation problems are reported as
// ValidationErrors wrapped inside one.
package config
