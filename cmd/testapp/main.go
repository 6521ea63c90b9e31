// testapp CLI - Command-line interface for the Kubernetes HTTP test service
package main

import "github.com/k8s-lovers-korea/test-go-app/pkg/cli"

func main() {
	cli.Execute()
}
