/*
Package config holds the sync manifest for pkgsync.

	                  +-------------+
	                  |   Config    |
	                  | (Manifest)  |
	                  +------+------+
	                         |
	      +------------+-----+------+------------+
	      |            |            |            |
	+-----+-----+ +----+----+  +----+----+  +----+----+
	| Default() | |  YAML   |  |  JSON   |  |   HCL   |
	| compiled  | | Parser  |  | Parser  |  | Parser  |
	+-----------+ +---------+  +---------+  +---------+

🎯 Purpose:
- Describes which root files and directories map to which package paths
- Names the one file that is rewritten on the way (by transform id)
- Lists the build artifacts that are never copied

🔄 Flow:
1. Default() returns the compiled-in manifest
2. Load() optionally overrides it from a .yaml/.yml, .json or .hcl file
3. Validate() fills in destinations and rejects bad paths or transform ids

📝 Exclusions:
The Exclude list names package files that are maintained by hand (the
package __init__.py and cli.py). It is advisory. An entry that targets an
excluded path is still synced; the orchestrator only warns about it.

🔍 Example:

	cfg := config.Default()
	if path != "" {
		cfg, err = config.Load(ctx, path)
		if err != nil {
			return err
		}
	}
*/
package config
