package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/fyp"
	emailsvc "github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/services/email"
	logsvc "github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/services/logger"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/storage/backend"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "FYPCTL : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, os.Stdout)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := commandLine{
		mailSvc: mailSvc,
		out:     os.Stdout,
		connect: func() (*fyp.Service, error) {
			session, err := promptSession(conf, os.Stdout)
			if err != nil {
				return nil, err
			}
			client, err := backend.NewClient(conf.Backend, backend.WithSessionCookie(session))
			if err != nil {
				return nil, err
			}

			validate := validator.New()
			translator := core.NewTranslator()
			core.InitValidators(validate, translator)
			fyp.InitValidators(validate, translator)
			return fyp.NewService(backend.NewFypRepository(client), validate, conf.Backend.MaxConcurrency), nil
		},
	}

	if err := cli.run(ctx, os.Args); err != nil {
		if err != errHelp {
			if core.IsAuthExpired(err) {
				fmt.Fprintln(os.Stderr, "error: session expired, sign in again and update the session cookie")
			} else {
				logger.Error(fmt.Sprintf("fypctl %v", os.Args[1:]), err)
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
		}
		stop()
		os.Exit(1)
	}
}
