package publisher

import (
	"fmt"

	"devforge/internal/models"
)

// DeploymentFiles returns the scaffolding a hosting platform needs to run a
// project of the given stack: process file, dependency manifest, service
// descriptor. Paths already present in generated are left alone so model
// output always wins over boilerplate.
func DeploymentFiles(projectName string, stack models.TargetStack, generated []FileContent) []FileContent {
	have := make(map[string]bool, len(generated))
	for _, file := range generated {
		have[file.Path] = true
	}

	var extras []FileContent
	add := func(path, content string) {
		if !have[path] {
			extras = append(extras, FileContent{Path: path, Content: content})
		}
	}

	switch stack {
	case models.StackPython:
		add("requirements.txt", "flask>=3.0\ngunicorn>=21.0\n")
		add("Procfile", "web: gunicorn main:app\n")
		add("render.yaml", renderYAML(projectName, "python", "pip install -r requirements.txt", "gunicorn main:app"))
	case models.StackFastAPI:
		add("requirements.txt", "fastapi>=0.110\nuvicorn[standard]>=0.29\n")
		add("Procfile", "web: uvicorn main:app --host 0.0.0.0 --port $PORT\n")
		add("render.yaml", renderYAML(projectName, "python", "pip install -r requirements.txt", "uvicorn main:app --host 0.0.0.0 --port $PORT"))
	case models.StackNode:
		add("package.json", fmt.Sprintf("{\n  \"name\": %q,\n  \"version\": \"1.0.0\",\n  \"main\": \"index.js\",\n  \"scripts\": {\n    \"start\": \"node index.js\"\n  }\n}\n", projectName))
		add("Procfile", "web: node index.js\n")
		add("render.yaml", renderYAML(projectName, "node", "npm install", "npm start"))
	case models.StackReact:
		add("package.json", fmt.Sprintf("{\n  \"name\": %q,\n  \"version\": \"1.0.0\",\n  \"private\": true,\n  \"dependencies\": {\n    \"react\": \"^18.0.0\",\n    \"react-dom\": \"^18.0.0\",\n    \"react-scripts\": \"5.0.1\"\n  },\n  \"scripts\": {\n    \"start\": \"react-scripts start\",\n    \"build\": \"react-scripts build\"\n  }\n}\n", projectName))
		add("render.yaml", renderYAML(projectName, "node", "npm install && npm run build", "npx serve -s build"))
	default:
		// Static sites need no process or manifest files.
	}
	return extras
}

func renderYAML(name, env, build, start string) string {
	return fmt.Sprintf("services:\n  - type: web\n    name: %s\n    env: %s\n    buildCommand: %s\n    startCommand: %s\n", name, env, build, start)
}
