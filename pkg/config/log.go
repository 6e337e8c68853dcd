// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cihub/seelog"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/util/log"
)

// LoggerName specifies the name of an instantiated logger.
type LoggerName string

const logFileMaxSize = 10 * 1024 * 1024
const logDateFormat = "2006-01-02 15:04:05 MST"

// BuildCommonFormat returns the log common format seelog string
func BuildCommonFormat(loggerName LoggerName) string {
	return fmt.Sprintf("%%Date(%s) | %s | %%LEVEL | (%%ShortFilePath:%%Line in %%FuncShort) | %%ExtraTextContext%%Msg%%n", logDateFormat, loggerName)
}

// BuildJSONFormat returns the log JSON format seelog string
func BuildJSONFormat(loggerName LoggerName) string {
	return fmt.Sprintf(`{"agent":"%s","time":"%%Date(%s)","level":"%%LEVEL","file":"%%ShortFilePath","line":"%%Line","func":"%%FuncShort","msg":%%QuoteMsg%%ExtraJSONContext}%%n`, strings.ToLower(string(loggerName)), logDateFormat)
}

// createExtraTextContext renders the key/value pairs attached with the
// log.*c functions as "k:v, k:v | " ahead of the message.
func createExtraTextContext(string) seelog.FormatterFunc {
	return func(message string, level seelog.LogLevel, context seelog.LogContextInterface) interface{} {
		contextList, _ := context.CustomContext().([]interface{})
		if len(contextList) == 0 || len(contextList)%2 != 0 {
			return ""
		}
		builder := strings.Builder{}
		for i := 0; i < len(contextList); i += 2 {
			builder.WriteString(fmt.Sprintf("%s:%v", contextList[i], contextList[i+1]))
			if i != len(contextList)-2 {
				builder.WriteString(", ")
			} else {
				builder.WriteString(" | ")
			}
		}
		return builder.String()
	}
}

// createExtraJSONContext renders the attached key/value pairs as extra JSON
// fields after the message.
func createExtraJSONContext(string) seelog.FormatterFunc {
	return func(message string, level seelog.LogLevel, context seelog.LogContextInterface) interface{} {
		contextList, _ := context.CustomContext().([]interface{})
		if len(contextList) == 0 || len(contextList)%2 != 0 {
			return ""
		}
		builder := strings.Builder{}
		for i := 0; i < len(contextList); i += 2 {
			builder.WriteString(fmt.Sprintf(",%s:%s", strconv.Quote(fmt.Sprintf("%v", contextList[i])), strconv.Quote(fmt.Sprintf("%v", contextList[i+1]))))
		}
		return builder.String()
	}
}

func createQuoteMsgFormatter(string) seelog.FormatterFunc {
	return func(message string, level seelog.LogLevel, context seelog.LogContextInterface) interface{} {
		return strconv.Quote(message)
	}
}

func registerFormatters() {
	seelog.RegisterCustomFormatter("ExtraTextContext", createExtraTextContext) //nolint:errcheck
	seelog.RegisterCustomFormatter("ExtraJSONContext", createExtraJSONContext) //nolint:errcheck
	seelog.RegisterCustomFormatter("QuoteMsg", createQuoteMsgFormatter)        //nolint:errcheck
}

func seelogLevel(logLevel string) (string, error) {
	seelogLogLevel := strings.ToLower(logLevel)
	if seelogLogLevel == "warning" { // Accept the python level name
		seelogLogLevel = "warn"
	}
	if _, found := seelog.LogLevelFromString(seelogLogLevel); !found {
		return "", errors.New("unknown log level: " + seelogLogLevel)
	}
	return seelogLogLevel, nil
}

func buildLoggerConfig(loggerName LoggerName, seelogLogLevel, logFile string, logToConsole, jsonFormat bool) string {
	formatID := "common"
	if jsonFormat {
		formatID = "json"
	}

	config := fmt.Sprintf(`<seelog minlevel="%s">`, seelogLogLevel)
	config += fmt.Sprintf(`<outputs formatid="%s">`, formatID)
	if logToConsole {
		config += `<console />`
	}
	if logFile != "" {
		config += fmt.Sprintf(`<rollingfile type="size" filename="%s" maxsize="%d" maxrolls="1" />`, logFile, logFileMaxSize)
	}
	config += `</outputs>
	<formats>`
	config += fmt.Sprintf(`<format id="common" format="%s"/>`, BuildCommonFormat(loggerName))
	config += fmt.Sprintf(`<format id="json" format="%s"/>`, strings.Replace(BuildJSONFormat(loggerName), `"`, `&quot;`, -1))
	config += `</formats>
</seelog>`
	return config
}

// SetupLogger sets up the default logger, wiring console and rolling file
// outputs with either the text or the JSON format.
func SetupLogger(loggerName LoggerName, logLevel, logFile string, logToConsole, jsonFormat bool) error {
	seelogLogLevel, err := seelogLevel(logLevel)
	if err != nil {
		return err
	}

	registerFormatters()

	configString := buildLoggerConfig(loggerName, seelogLogLevel, logFile, logToConsole, jsonFormat)
	loggerInterface, err := seelog.LoggerFromConfigAsString(configString)
	if err != nil {
		return err
	}

	seelog.ReplaceLogger(loggerInterface) //nolint:errcheck
	log.SetupPipelineLogger(loggerInterface, seelogLogLevel)

	return nil
}
