// 18 Oct 2026

package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	. "github.com/andrew-torda/smear/pkg/seq/common"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(ExitFailure)
	}
	os.Exit(ExitSuccess)
}
