// Package config holds the parameters of a resolution run and loads them
// from configuration files.
//
// # Sources
//
// Parameters are layered, lowest precedence first:
//
//  1. [Defaults]
//  2. a configuration file ([Load]): TOML (.toml) or a two-column CSV
//     file (.csv) with a "parameter,value" header
//  3. command-line flags the user set explicitly (applied by the CLI)
//
// When no file is named, [Discover] looks for [DefaultCSVFile] in the
// working directory.
//
// Both file formats use the same parameter names:
//
//	package_name,react
//	repo_url,https://registry.npmjs.org
//	test_mode,false
//	output_file,dependency_graph.png
//	max_depth,3
//	filter_substring,
//
// Call [Config.Validate] after all layers are applied and before resolving.
package config
