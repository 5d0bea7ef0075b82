/*
Package operation implements the patch engine's invocation modes.

	+-----------+     +----------+     +-----------+     +------------+
	| Analyzer  | --> |  Backup  | --> |  Applier  | --> |  Verifier  |
	| (detect)  |     | (opt.)   |     | (rewrite) |     | (residue)  |
	+-----------+     +----------+     +-----------+     +------------+

	Restore: Backup (pristine) --> Verifier

🎯 Purpose:
- Rewrite legacy ftp:// URLs in one target file to https://
- Apply small targeted source fixes from the same rule set
- Keep the change undoable through a pristine snapshot

🔄 Apply flow:
1. Scan for legacy references; none means no-op and nothing is written
2. Back up the target (timestamped copy, plus pristine copy on first run)
3. Run every rule, URL rules before bug-fix rules, each over the previous output
4. Write once if anything changed
5. Re-scan; leftover legacy references are a warning, not a failure

🚦 Outcomes:
- OutcomeNoOp: nothing to do, or nothing to restore
- OutcomeSuccess: changes made (or previewed) and the target is clean
- OutcomeWarning: changes made but legacy references remain

Configuration and I/O failures are returned as errors and are never retried.
*/
package operation
