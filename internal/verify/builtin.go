package verify

func init() {
	register(Steps())
	register(Greeting())
}

// Steps is the 21-step file operations task. Only 15 of the steps leave
// verifiable traces, but accuracy is measured against all 21.
func Steps() Checklist {
	return Checklist{
		Name:          "steps",
		Description:   "21-step file operations benchmark",
		Base:          "benchmark-test",
		DeclaredTotal: 21,
		ResultKey:     "steps",
		Checks: []Check{
			// directory setup
			{ID: "1", Description: "benchmark-test/ exists", Pass: DirExists(".")},
			{ID: "2", Description: "src/ exists", Pass: DirExists("src")},
			{ID: "3", Description: "docs/ exists", Pass: DirExists("docs")},
			{ID: "4", Description: "config/ exists", Pass: DirExists("config")},

			// file creation
			{ID: "5", Description: "README.md exists", Pass: FileExists("README.md")},
			{ID: "6", Description: "src/main.py exists", Pass: FileExists("src/main.py")},
			{ID: "7", Description: "src/helpers.py exists (renamed)", Pass: FileExists("src/helpers.py")},
			{ID: "8", Description: "docs/setup.md exists", Pass: FileExists("docs/setup.md")},
			{ID: "9", Description: "config/settings.json exists", Pass: FileExists("config/settings.json")},
			{ID: "10", Description: ".gitignore exists", Pass: FileExists(".gitignore")},

			// modifications
			{ID: "14", Description: "README.md has Features section", Pass: Contains("README.md", "## Features")},
			{ID: "15", Description: "main.py has import", Pass: Contains("src/main.py", "import")},
			{ID: "16", Description: "settings.json debug=false", Pass: JSONFieldEquals("config/settings.json", "debug", false)},
			{ID: "17", Description: "utils.py deleted, helpers.py exists", Pass: All(NotExists("src/utils.py"), Exists("src/helpers.py"))},

			{ID: "20", Description: "COMPLETION.md exists", Pass: FileExists("COMPLETION.md")},
		},
	}
}

// Greeting is the 4-phase greeting API implementation. Content checks are
// only counted for files that exist.
func Greeting() Checklist {
	const (
		pkg      = "package.json"
		index    = "src/index.ts"
		validate = "src/middleware/validate-name.ts"
		greet    = "src/handlers/greet.ts"
		test     = "tests/greet.test.ts"
		readme   = "README.md"
	)
	has := FileExists

	return Checklist{
		Name:        "greeting",
		Description: "4-phase greeting API implementation",
		Base:        "greeting-api",
		ResultKey:   "checks",
		Checks: []Check{
			{ID: "phase1_api_dir", Description: "greeting-api/ directory exists", Pass: DirExists(".")},
			{ID: "phase1_src_dir", Description: "src/ directory exists", Pass: DirExists("src")},
			{ID: "phase1_tests_dir", Description: "tests/ directory exists", Pass: DirExists("tests")},
			{ID: "phase1_package_json", Description: "package.json exists", Pass: FileExists(pkg)},
			{ID: "phase1_tsconfig", Description: "tsconfig.json exists", Pass: FileExists("tsconfig.json")},
			{ID: "phase1_index_ts", Description: "src/index.ts exists", Pass: FileExists(index)},

			{ID: "phase2_middleware_dir", Description: "middleware/ directory exists", Pass: DirExists("src/middleware")},
			{ID: "phase2_handlers_dir", Description: "handlers/ directory exists", Pass: DirExists("src/handlers")},
			{ID: "phase2_validate_name", Description: "validate-name.ts exists", Pass: FileExists(validate)},
			{ID: "phase2_greet_handler", Description: "greet.ts handler exists", Pass: FileExists(greet)},

			{ID: "phase3_test_file", Description: "greet.test.ts exists", Pass: FileExists(test)},

			{ID: "phase4_readme", Description: "README.md exists", Pass: FileExists(readme)},

			{ID: "content_vitest", Description: "package.json has vitest", When: has(pkg), Pass: Contains(pkg, "vitest")},
			{ID: "content_express", Description: "package.json has express", When: has(pkg), Pass: Contains(pkg, "express")},

			{ID: "content_route", Description: "index.ts has greet route", When: has(index), Pass: Any(Contains(index, "/api/greet"), ContainsFold(index, "greet"))},
			{ID: "content_export", Description: "index.ts exports app", When: has(index), Pass: Contains(index, "export")},

			{ID: "content_length_validation", Description: "validate-name.ts checks length", When: has(validate), Pass: ContainsAny(validate, "50", "length")},
			{ID: "content_regex_validation", Description: "validate-name.ts checks alphanumeric", When: has(validate), Pass: Any(ContainsFold(validate, "alphanumeric"), Contains(validate, "/^[a-zA-Z0-9]"))},

			{ID: "content_hello_message", Description: "greet.ts returns Hello message", When: has(greet), Pass: Contains(greet, "Hello")},
			{ID: "content_timestamp", Description: "greet.ts includes timestamp", When: has(greet), Pass: ContainsAny(greet, "timestamp", "toISOString")},

			{ID: "content_test_describe", Description: "test file has describe blocks", When: has(test), Pass: Contains(test, "describe")},
			{ID: "content_test_valid", Description: "test file has valid request tests", When: has(test), Pass: ContainsFold(test, "valid")},
			{ID: "content_test_invalid", Description: "test file has invalid request tests", When: has(test), Pass: Any(ContainsFold(test, "invalid"), Contains(test, "400"))},

			{ID: "content_readme_api", Description: "README documents API endpoint", When: has(readme), Pass: Contains(readme, "/api/greet")},
			{ID: "content_readme_examples", Description: "README has usage examples", When: has(readme), Pass: Any(ContainsFold(readme, "curl"), ContainsFold(readme, "example"))},
		},
	}
}
