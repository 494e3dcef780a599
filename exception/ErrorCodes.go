// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package exception

const UserEmailMissing = "DE-1001"
const UserEmailMissingMsg = "You must set an email address to your user."

const ExportUserEmailMissing = "DE-1002"
const ExportUserEmailMissingMsg = "The user $user doesn't have an email address."

const ExportModelNotFound = "DE-1003"
const ExportModelNotFoundMsg = "Model $model is not available for export"

const ExportFieldNotFound = "DE-1004"
const ExportFieldNotFoundMsg = "Field $field doesn't exist on model $model"

const InvalidDomain = "DE-1005"
const InvalidDomainMsg = "Domain filter is invalid: $reason"

const InvalidExportParams = "DE-1006"
const InvalidExportParamsMsg = "Export parameters are invalid"

const RequiredParamsMissing = "DE-1007"
const RequiredParamsMissingMsg = "Required parameters are missing: $params"

const UserNotFound = "DE-1008"
const UserNotFoundMsg = "User with id $userId not found"

const ExportTaskNotFound = "DE-1009"
const ExportTaskNotFoundMsg = "Export task $taskId not found"

const AttachmentNotFound = "DE-1010"
const AttachmentNotFoundMsg = "Attachment $attachmentId not found"

const AttachmentNameMismatch = "DE-1011"
const AttachmentNameMismatchMsg = "Attachment $attachmentId is not named $name"

const InsufficientPrivileges = "DE-1012"
const InsufficientPrivilegesMsg = "You don't have enough privileges to perform this operation"

const ConfigParameterMissing = "DE-1013"
const ConfigParameterMissingMsg = "System parameter $key is not set"

const IncorrectParamType = "DE-1014"
const IncorrectParamTypeMsg = "$param parameter should be $type"

const MailTemplateNotFound = "DE-1015"
const MailTemplateNotFoundMsg = "Mail template $template not found"

const BadRequestBody = "DE-1016"
const BadRequestBodyMsg = "Failed to decode body"

const PersonalAccessTokenLimitExceeded = "DE-1017"
const PersonalAccessTokenLimitExceededMsg = "Active personal access tokens limit $limit is exceeded"

const PersonalAccessTokenNameIsUsed = "DE-1018"
const PersonalAccessTokenNameIsUsedMsg = "Personal access token with name $name already exists"

const PersonalAccessTokenIncorrectExpiry = "DE-1019"
const PersonalAccessTokenIncorrectExpiryMsg = "Incorrect value for $param: should be -1 or a positive number of days"

const PersonalAccessTokenNotFound = "DE-1020"
const PersonalAccessTokenNotFoundMsg = "Personal access token $id not found"
