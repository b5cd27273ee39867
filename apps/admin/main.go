package main

import (
	"log"
	"os"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/user"
	"github.com/darasahq/darasa/storage/database"
	dummydb "github.com/darasahq/darasa/storage/database/dummy"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	// set up DB
	var usrRepo user.Repository
	if conf.Debug {
		db, err := dummydb.Open()
		errAndDie(err)
		usrRepo = dummydb.NewUserRepository(db)
	} else {
		db, err := database.Open(conf)
		errAndDie(err)
		defer db.Close()
		errAndDie(database.Ping(db))
		errAndDie(database.Migrate(db))
		usrRepo = database.NewUserRepository(db)
	}

	// start CLI
	cli := commandLine{
		usrRepo: usrRepo,
		usrSvc:  user.NewService(usrRepo),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
