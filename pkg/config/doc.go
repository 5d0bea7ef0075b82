/*
Package config loads optional settings from YAML, HCL or JSON files and
resolves the target file and backup root.

📝 YAML:

	dram_path: /opt/conda/envs/dram/lib/python3.10/site-packages/mag_annotator
	backup_root: ~/DRAM_backups
	rules:
	  - category: url
	    pattern: ftp://mirror\.example\.org/
	    replacement: https://mirror.example.org/

📝 HCL:

	dram_path = "/opt/conda/envs/dram/lib/python3.10/site-packages/mag_annotator"

	rule {
	  category    = "bug"
	  pattern     = "old_call\\("
	  replacement = "new_call("
	  reference   = "issue 123"
	}

Flags always win over file values. With neither, the target is found by
importing mag_annotator through the active Python interpreter.
*/
package config
