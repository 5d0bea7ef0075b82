package rules

// ftp -> https rewrites for the database mirrors DRAM downloads from
var defaultURLRules = []Rule{
	// KOfam and KEGG
	{Category: CategoryURL, Pattern: `ftp://ftp\.genome\.jp/`, Replacement: "https://www.genome.jp/ftp/"},
	// Pfam
	{Category: CategoryURL, Pattern: `ftp://ftp\.ebi\.ac\.uk/pub/databases/Pfam/`, Replacement: "https://ftp.ebi.ac.uk/pub/databases/Pfam/"},
	// UniProt / UniRef
	{Category: CategoryURL, Pattern: `ftp://ftp\.uniprot\.org/pub/databases/uniprot/`, Replacement: "https://ftp.uniprot.org/pub/databases/uniprot/"},
	// MEROPS
	{Category: CategoryURL, Pattern: `ftp://ftp\.ebi\.ac\.uk/pub/databases/merops/`, Replacement: "https://ftp.ebi.ac.uk/pub/databases/merops/"},
	// dbCAN
	{Category: CategoryURL, Pattern: `ftp://bcb\.unl\.edu/dbCAN2/`, Replacement: "https://bcb.unl.edu/dbCAN2/"},
	// VOG
	{Category: CategoryURL, Pattern: `ftp://fileshare\.csb\.univie\.ac\.at/vog/`, Replacement: "https://fileshare.csb.univie.ac.at/vog/"},
}

var defaultBugRules = []Rule{
	{
		Category:    CategoryBug,
		Pattern:     `path\.join\(hmm_dir, 'VOG\*\.hmm'\)`,
		Replacement: "path.join(hmm_dir, 'hmm', 'VOG*.hmm')",
		Reference:   "https://github.com/metagenome-atlas/atlas/issues/718",
	},
}

// Default returns the shipped rule set
func Default() *Set {
	s, err := New(defaultURLRules, defaultBugRules)
	if err != nil {
		panic("default rule set is invalid: " + err.Error())
	}
	return s
}
