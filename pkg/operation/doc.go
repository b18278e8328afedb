/*
Package operation syncs the root tree into the package tree.

	       +-------------+
	       |  Operator   |
	       |   (Sync)    |
	       +------+------+
	              |
	     +--------+--------+-------------+
	     |                 |             |
	+----v------+    +-----v-----+  +----v------+
	| SyncFile  |    | SyncTree  |  |  skipped  |
	|(transform)|    |  (walk)   |  | (missing) |
	+----+------+    +-----+-----+  +-----------+
	     |                 |
	+----v-----------------v----+
	|  digest compare           |
	|  status.Manager (write)   |
	+---------------------------+

🎯 Purpose:
- Copies each manifest entry from root to package
- Passes the one designated file through its transform
- Writes only when the content digest differs
- Reports every step through the console logger

🔄 Flow:
1. Header with root, package and preview mode
2. Each entry in manifest order: missing sources are skipped with a warning
3. Files: read, repair invalid UTF-8, transform, compare, write atomically
4. Directories: walk, drop ignored artifacts, compare, copy bytes
5. Summary, plus next steps after a real run that wrote something

⚡ Guarantees:
- A preview never writes and reports the same count a real run would
- A second run right after a real run writes nothing
- Nothing in the package tree is ever deleted

🔍 Example:

	op, err := operation.New(operation.Options{
		Config:  cfg,
		Root:    osfs.New(cfg.Root),
		Package: osfs.New(cfg.PackageDir()),
		Logger:  log.New(os.Stdout, zerolog.WarnLevel),
		DryRun:  dryRun,
	})
	if err != nil {
		return err
	}
	summary, err := op.Sync(ctx)
*/
package operation
