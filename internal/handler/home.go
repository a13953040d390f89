package handler

import "net/http"

// homePage はプロフィール分析フォームを表示する単一ページ。
// バックエンドに埋め込み、追加の静的ファイル配信を不要にする。
const homePage = `<!DOCTYPE html>
<html>
<head>
    <title>GitGazer - GitHub Profile Analyzer</title>
    <link href="https://cdn.jsdelivr.net/npm/bootstrap@5.1.3/dist/css/bootstrap.min.css" rel="stylesheet">
    <style>
        body { padding: 20px; }
        .container { max-width: 800px; }
        .result-section { margin-top: 20px; }
    </style>
</head>
<body>
    <div class="container">
        <h1 class="mb-4">GitHub Profile Analyzer</h1>
        <form id="analyzeForm" class="mb-4">
            <div class="mb-3">
                <label for="github_url" class="form-label">GitHub Profile URL</label>
                <input type="text" class="form-control" id="github_url" name="github_url"
                       placeholder="https://github.com/username" required>
            </div>
            <button type="submit" class="btn btn-primary">Analyze Profile</button>
        </form>
        <div id="results" class="result-section"></div>
    </div>
    <script>
        document.getElementById('analyzeForm').addEventListener('submit', async (e) => {
            e.preventDefault();
            const url = document.getElementById('github_url').value;
            const resultsDiv = document.getElementById('results');
            resultsDiv.innerHTML = '<div class="alert alert-info">Analyzing profile...</div>';

            try {
                const response = await fetch('/analyze', {
                    method: 'POST',
                    headers: {'Content-Type': 'application/json'},
                    body: JSON.stringify({github_url: url})
                });
                const data = await response.json();

                if (!response.ok) {
                    const detail = data.action ? data.message + ' ' + data.action : data.message;
                    resultsDiv.innerHTML = '<div class="alert alert-danger">' + detail + '</div>';
                    return;
                }

                resultsDiv.innerHTML = ` + "`" + `
                    <div class="card">
                        <div class="card-body">
                            <h2 class="card-title">Profile Analysis Results</h2>
                            <p><strong>Username:</strong> ${data.username}</p>
                            <p><strong>Repositories:</strong> ${data.repo_count}</p>
                            <p><strong>Followers:</strong> ${data.followers}</p>
                            <p><strong>Following:</strong> ${data.following}</p>
                            <p><strong>Total Stars:</strong> ${data.total_stars}</p>
                            <p><strong>Most Used Languages:</strong> ${data.top_languages.join(', ')}</p>
                            <p><strong>Account Created:</strong> ${data.created_at}</p>
                            <p><strong>Last Active:</strong> ${data.last_active}</p>
                        </div>
                    </div>
                ` + "`" + `;
            } catch (error) {
                resultsDiv.innerHTML = '<div class="alert alert-danger">An error occurred while analyzing the profile.</div>';
            }
        });
    </script>
</body>
</html>
`

// Home は分析フォームのHTMLページを返す。
// GET /
func Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(homePage))
}

// Health はヘルスチェック用エンドポイント。
// GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
