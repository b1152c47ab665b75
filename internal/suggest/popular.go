package suggest

// popularRepos is a curated list of repositories with active
// beginner-friendly issue labels. Shown when the user has little or no
// search history of their own.
var popularRepos = []Suggestion{
	{Origin: OriginPopular, Owner: "firstcontributions", Repo: "first-contributions", DisplayName: "firstcontributions/first-contributions"},
	{Origin: OriginPopular, Owner: "kubernetes", Repo: "kubernetes", DisplayName: "kubernetes/kubernetes"},
	{Origin: OriginPopular, Owner: "microsoft", Repo: "vscode", DisplayName: "microsoft/vscode"},
	{Origin: OriginPopular, Owner: "golang", Repo: "go", DisplayName: "golang/go"},
	{Origin: OriginPopular, Owner: "rust-lang", Repo: "rust", DisplayName: "rust-lang/rust"},
	{Origin: OriginPopular, Owner: "flutter", Repo: "flutter", DisplayName: "flutter/flutter"},
	{Origin: OriginPopular, Owner: "home-assistant", Repo: "core", DisplayName: "home-assistant/core"},
	{Origin: OriginPopular, Owner: "godotengine", Repo: "godot", DisplayName: "godotengine/godot"},
}

// Popular returns a copy of the curated candidates so callers can
// append or reorder without touching the shared list.
func Popular() []Suggestion {
	out := make([]Suggestion, len(popularRepos))
	copy(out, popularRepos)
	return out
}
