/*
Package status tracks what a sync run did and owns the writes into the
package tree.

	+-----------+      WriteFile       +-------------------+
	| operation | -------------------> |  Manager          |
	|  units    |      Track           |  (package fs)     |
	+-----------+ -------------------> +---------+---------+
	                                             |
	                                   +---------v---------+
	                                   |  Summary          |
	                                   |  (per entry)      |
	                                   +-------------------+

🎯 Purpose:
- Outcome model shared by file and directory units
- Atomic writes (temp file + rename) into the package filesystem
- Per-entry results and the run total
- Message formatting, kept apart from the console reporter

📊 Outcomes:
  - synced: destination written
  - unchanged: digests matched, nothing written
  - would-sync: preview mode, destination differs
  - skipped: source missing, nothing attempted

🔍 Example:

	mgr := status.New(pkgFS, dryRun)
	if err := mgr.WriteFile(ctx, "app.py", content, 0644); err != nil {
		return err
	}
	mgr.Track(ctx, status.EntryResult{Source: "app.py", Outcome: status.OutcomeSynced, Files: 1})
	fmt.Println(mgr.Summary().Total())
*/
package status
